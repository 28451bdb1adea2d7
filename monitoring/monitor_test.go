package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagesim/pagesim/sim"
	_ "github.com/pagesim/pagesim/sim/replacement"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(rec *httptest.ResponseRecorder, v any) {
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		router http.Handler
	)

	BeforeEach(func() {
		m = NewMonitor()
		router = m.Router()
	})

	It("should refuse privileged ports", func() {
		Expect(m.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should serve zero values before the first tick", func() {
		_, observed := m.Snapshot()
		Expect(observed).To(BeFalse())

		rec := get(router, "/api/now")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var rsp nowRsp
		decode(rec, &rsp)
		Expect(rsp.Clock).To(BeZero())

		rec = get(router, "/api/processes")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	Context("with an observed snapshot", func() {
		BeforeEach(func() {
			m.Observe(sim.Snapshot{
				Clock:  12345,
				Ticks:  17,
				Policy: "clock",
				Metrics: sim.Metrics{
					ProcessesCreated:  3,
					ProcessesDone:     1,
					TotalInstructions: 900,
					Evictions:         sim.EvictionCounters{DirtyPagesReturned: 4},
					Retired:           []sim.ProcessSummary{{PID: 1, State: sim.StateDone}},
				},
				Live: []sim.ProcessSummary{
					{PID: 2, State: sim.StateRunning, Frames: 4},
					{PID: 3, State: sim.StateWaiting, WaitRemaining: 800},
				},
			})
		})

		It("should report the clock", func() {
			var rsp nowRsp
			decode(get(router, "/api/now"), &rsp)
			Expect(rsp.Clock).To(Equal(int64(12345)))
			Expect(rsp.Ticks).To(Equal(int64(17)))
		})

		It("should report totals", func() {
			var rsp statsRsp
			decode(get(router, "/api/stats"), &rsp)
			Expect(rsp.Policy).To(Equal("clock"))
			Expect(rsp.ProcessesCreated).To(Equal(3))
			Expect(rsp.ProcessesLive).To(Equal(2))
			Expect(rsp.Evictions.DirtyPagesReturned).To(Equal(int64(4)))
		})

		It("should list live processes", func() {
			var rsp []sim.ProcessSummary
			decode(get(router, "/api/processes"), &rsp)
			Expect(rsp).To(HaveLen(2))
			Expect(rsp[1].WaitRemaining).To(Equal(int64(800)))
		})

		It("should find live and retired processes by pid", func() {
			var p sim.ProcessSummary
			decode(get(router, "/api/process/2"), &p)
			Expect(p.Frames).To(Equal(4))

			decode(get(router, "/api/process/1"), &p)
			Expect(p.State).To(Equal(sim.StateDone))

			Expect(get(router, "/api/process/42").Code).To(Equal(http.StatusNotFound))
			Expect(get(router, "/api/process/abc").Code).To(Equal(http.StatusNotFound))
		})
	})

	It("should report host resource usage", func() {
		rec := get(router, "/api/resource")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var rsp resourceRsp
		decode(rec, &rsp)
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should follow a real run and serve over TCP", func() {
		cfg := sim.DefaultConfig()
		cfg.ProcessesToDo = 2
		cfg.AverageProcessCycles = 5000
		cfg.AverageProcessCycleStdDev = 500
		s, err := sim.NewSimulator(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		s.SetObserver(m)
		Expect(s.Run()).To(Succeed())

		url, err := m.WithPortNumber(0).StartServer()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(m.Shutdown(context.Background())).To(Succeed()) })

		resp, err := http.Get(url + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		var rsp nowRsp
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp.Finished).To(BeTrue())
		Expect(rsp.Clock).To(Equal(s.Scheduler.Clock))
	})
})
