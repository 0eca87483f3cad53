package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Startup step names, in the order main completes them
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
	StepReady      = "Server ready"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	Ready    bool          `json:"ready"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

func newStartupStatus() *StartupStatus {
	return &StartupStatus{
		Current: "Initializing...",
		Steps: []StartupStep{
			{Name: StepDatabase},
			{Name: StepMigrations},
			{Name: StepServices},
			{Name: StepReady},
		},
	}
}

var (
	startupMu     sync.RWMutex
	startupStatus = newStartupStatus()
)

// SetCurrentStep updates the current initialization step
func SetCurrentStep(step string) {
	startupMu.Lock()
	defer startupMu.Unlock()
	startupStatus.Current = step
}

// CompleteStep marks a step as completed and updates progress
func CompleteStep(stepName string) {
	startupMu.Lock()
	defer startupMu.Unlock()

	for i := range startupStatus.Steps {
		if startupStatus.Steps[i].Name == stepName {
			startupStatus.Steps[i].Completed = true
			break
		}
	}

	completed := 0
	for _, step := range startupStatus.Steps {
		if step.Completed {
			completed++
		}
	}
	startupStatus.Progress = (completed * 100) / len(startupStatus.Steps)
}

// MarkReady marks the server as fully initialized
func MarkReady() {
	CompleteStep(StepReady)
	startupMu.Lock()
	defer startupMu.Unlock()
	startupStatus.Ready = true
	startupStatus.Current = StepReady
	startupStatus.Progress = 100
}

// IsReady returns whether the server is fully initialized
func IsReady() bool {
	startupMu.RLock()
	defer startupMu.RUnlock()
	return startupStatus.Ready
}

func snapshotStartup() StartupStatus {
	startupMu.RLock()
	defer startupMu.RUnlock()
	status := *startupStatus
	status.Steps = append([]StartupStep(nil), startupStatus.Steps...)
	return status
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live always answers 200 while the process is up
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports startup progress and checks the database once startup is done
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := snapshotStartup()
	if !status.Ready {
		respondJSON(w, http.StatusServiceUnavailable, &status)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status.Ready = false
			status.Current = "Database unreachable"
			respondJSON(w, http.StatusServiceUnavailable, &status)
			return
		}
	}
	respondJSON(w, http.StatusOK, &status)
}
