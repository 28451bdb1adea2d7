// Package monitoring serves the progress of a running simulation over HTTP.
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"

	"github.com/pagesim/pagesim/sim"
)

// Monitor receives a snapshot after every tick and serves the latest one.
// HTTP handlers only ever read the copied snapshot, never live simulation
// state.
type Monitor struct {
	portNumber int

	mu       sync.RWMutex
	snapshot sim.Snapshot
	observed bool

	server   *http.Server
	listener net.Listener
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// refused and replaced by a random free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		logrus.Warnf("Port number %d is not allowed for the monitoring server, using a random port instead", portNumber)
		portNumber = 0
	}
	m.portNumber = portNumber
	return m
}

// Observe implements sim.Observer.
func (m *Monitor) Observe(s sim.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
	m.observed = true
}

// Snapshot returns the latest snapshot and whether one has been observed.
func (m *Monitor) Snapshot() (sim.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.observed
}

// Router returns the API routes.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/now", m.now).Methods(http.MethodGet)
	api.HandleFunc("/stats", m.stats).Methods(http.MethodGet)
	api.HandleFunc("/processes", m.listProcesses).Methods(http.MethodGet)
	api.HandleFunc("/process/{pid:[0-9]+}", m.processDetails).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	return r
}

// StartServer listens on the configured port and serves in the background.
// Returns the base URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("starting monitor: %w", err)
	}
	m.listener = listener
	m.server = &http.Server{Handler: m.Router()}

	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	logrus.Infof("Monitoring simulation with %s", url)

	go func() {
		if err := m.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("monitor server: %v", err)
		}
	}()
	return url, nil
}

// OpenBrowser opens url in the user's browser.
func (m *Monitor) OpenBrowser(url string) error {
	return browser.OpenURL(url + "/api/stats")
}

// Shutdown stops the server if it was started.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

type nowRsp struct {
	Clock    int64 `json:"now"`
	Ticks    int64 `json:"ticks"`
	Finished bool  `json:"finished"`
}

type statsRsp struct {
	Policy            string               `json:"policy"`
	Clock             int64                `json:"now"`
	ProcessesCreated  int                  `json:"processes_created"`
	ProcessesDone     int                  `json:"processes_done"`
	ProcessesLive     int                  `json:"processes_live"`
	TotalInstructions int64                `json:"total_instructions"`
	TotalWaits        int64                `json:"total_waits"`
	Evictions         sim.EvictionCounters `json:"evictions"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	s, _ := m.Snapshot()
	writeJSON(w, http.StatusOK, nowRsp{Clock: s.Clock, Ticks: s.Ticks, Finished: s.Finished})
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	s, _ := m.Snapshot()
	writeJSON(w, http.StatusOK, statsRsp{
		Policy:            s.Policy,
		Clock:             s.Clock,
		ProcessesCreated:  s.Metrics.ProcessesCreated,
		ProcessesDone:     s.Metrics.ProcessesDone,
		ProcessesLive:     len(s.Live),
		TotalInstructions: s.Metrics.TotalInstructions,
		TotalWaits:        s.Metrics.TotalWaits,
		Evictions:         s.Metrics.Evictions,
	})
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	s, _ := m.Snapshot()
	live := s.Live
	if live == nil {
		live = []sim.ProcessSummary{}
	}
	writeJSON(w, http.StatusOK, live)
}

// processDetails serves a live process, or a retired one if it already finished.
func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(mux.Vars(r)["pid"])
	if err != nil {
		http.Error(w, "bad pid", http.StatusBadRequest)
		return
	}
	s, _ := m.Snapshot()
	for _, p := range s.Live {
		if p.PID == pid {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	for _, p := range s.Metrics.Retired {
		if p.PID == pid {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	http.Error(w, fmt.Sprintf("process %d not found", pid), http.StatusNotFound)
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resourceRsp{CPUPercent: cpuPercent, MemorySize: memory.RSS})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logrus.Debugf("monitor response: %v", err)
	}
}
