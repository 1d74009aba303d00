package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcefield/internal/config"
	"github.com/san-kum/forcefield/internal/logging"
	"github.com/san-kum/forcefield/internal/metrics"
	"github.com/san-kum/forcefield/internal/potential"
)

var _ = Describe("Handler", func() {
	var (
		handler http.Handler
		cfg     *config.Config
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.SampleStep = 0.01
		handler = NewHandler(&Server{
			Registry: potential.NewRegistry(),
			Config:   cfg,
			Log:      logging.NewNop(),
			Metrics:  metrics.New(),
		})
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		ExpectWithOffset(1, rec.Header().Get("Content-Type")).To(Equal("application/json"))
		ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	It("reports health", func() {
		rec := get("/healthz")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("ok"))
	})

	It("lists the models with their domains", func() {
		rec := get("/api/models")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var models []ModelInfo
		decode(rec, &models)
		Expect(models).To(HaveLen(4))
		Expect(models[0].Name).To(Equal("bond"))
		Expect(models[3].Domain.Names()).To(Equal([]string{"q1", "q2", "r", "kappa"}))
	})

	It("returns slider defaults", func() {
		rec := get("/api/models/angle/defaults")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var p map[string]float64
		decode(rec, &p)
		Expect(p).To(Equal(map[string]float64{"theta": 85, "theta0": 85, "ktheta": 45}))
	})

	Describe("curve", func() {
		It("applies query overrides and the marker", func() {
			rec := get("/api/models/bond/curve?b=8&b0=8&kb=550&step=0.5")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var s struct {
				Xs           []float64 `json:"xs"`
				MarkerX      float64   `json:"markerX"`
				MarkerEnergy float64   `json:"markerEnergy"`
				MarkerForce  float64   `json:"markerForce"`
				AxisScale    struct {
					Energy struct {
						Tick float64 `json:"tickInterval"`
					} `json:"energy"`
				} `json:"axisScale"`
			}
			decode(rec, &s)
			Expect(s.Xs).To(HaveLen(28))
			Expect(s.MarkerX).To(Equal(8.0))
			Expect(s.MarkerEnergy).To(BeZero())
			Expect(s.MarkerForce).To(BeZero())
			Expect(s.AxisScale.Energy.Tick).To(Equal(4e4))
		})

		It("applies presets", func() {
			rec := get("/api/models/coulomb/frame?preset=ion-pair&step=1")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var f struct {
				Params  map[string]float64 `json:"params"`
				Diagram struct {
					Labels []string `json:"atomLabels"`
				} `json:"diagram"`
			}
			decode(rec, &f)
			Expect(f.Params).To(HaveKeyWithValue("kappa", 1.0))
			Expect(f.Diagram.Labels).To(Equal([]string{"+", "-"}))
		})
	})

	It("evaluates one configuration", func() {
		rec := get("/api/models/bond/eval?b=8&b0=8&kb=550")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var e EvalResponse
		decode(rec, &e)
		Expect(e.Model).To(Equal("bond"))
		Expect(e.Sample.Energy).To(BeZero())
		Expect(e.Caption).To(Equal("Force = 0.00e+00 N/mol"))
	})

	It("sweeps a parameter", func() {
		rec := get("/api/models/bond/sweep?b=7&param=b0&min=5&max=9&steps=5")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var results []struct {
			ParamValue float64 `json:"paramValue"`
			Energy     float64 `json:"energy"`
			Force      float64 `json:"force"`
		}
		decode(rec, &results)
		Expect(results).To(HaveLen(5))
		Expect(results[2].ParamValue).To(Equal(7.0))
		Expect(results[2].Energy).To(BeZero())
		Expect(results[0].Force).To(BeNumerically("<", 0))
		Expect(results[4].Force).To(BeNumerically(">", 0))
	})

	DescribeTable("error statuses",
		func(path string, code int) {
			rec := get(path)
			Expect(rec.Code).To(Equal(code))

			var body map[string]string
			decode(rec, &body)
			Expect(body).To(HaveKey("error"))
		},
		Entry("unknown model", "/api/models/morse/curve", http.StatusNotFound),
		Entry("unknown parameter", "/api/models/bond/diagram?sigma=2", http.StatusBadRequest),
		Entry("bad number", "/api/models/bond/diagram?b=abc", http.StatusBadRequest),
		Entry("bad step", "/api/models/bond/curve?step=-1", http.StatusBadRequest),
		Entry("NaN step", "/api/models/bond/curve?step=NaN", http.StatusBadRequest),
		Entry("infinite step", "/api/models/bond/frame?step=Inf", http.StatusBadRequest),
		Entry("step below resolution", "/api/models/bond/curve?step=1e-15", http.StatusBadRequest),
		Entry("step too fine for memory", "/api/models/lj/frame?step=1e-9", http.StatusBadRequest),
		Entry("unknown preset", "/api/models/lj/curve?preset=neon", http.StatusBadRequest),
		Entry("bad width", "/api/models/lj/diagram.svg?width=0", http.StatusBadRequest),
		Entry("singularity", "/api/models/lj/diagram?r=0", http.StatusUnprocessableEntity),
		Entry("sweep of unknown parameter", "/api/models/bond/sweep?param=sigma", http.StatusBadRequest),
		Entry("sweep without steps", "/api/models/bond/sweep?steps=0", http.StatusBadRequest),
		Entry("sweep with bad bound", "/api/models/bond/sweep?min=low", http.StatusBadRequest),
		Entry("singular eval", "/api/models/coulomb/eval?r=0", http.StatusUnprocessableEntity),
		Entry("singular curve", "/api/models/coulomb/curve?r=0", http.StatusUnprocessableEntity),
	)

	It("renders SVG", func() {
		rec := get("/api/models/angle/diagram.svg?theta=120&width=400")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("image/svg+xml"))
		Expect(rec.Body.String()).To(ContainSubstring(`width="400"`))

		rec = get("/api/models/lj/curve.svg?step=0.1")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<?xml"))
	})

	It("answers CORS preflight", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/models/bond/curve", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		handler.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("restricts CORS to configured origins", func() {
		cfg.Server.CORSOrigins = []string{"https://explainer.example"}
		h := NewHandler(&Server{Registry: potential.NewRegistry(), Config: cfg, Log: logging.NewNop(), Metrics: metrics.New()})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://explainer.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://explainer.example"))

		req.Header.Set("Origin", "https://elsewhere.example")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("counts renders in /metrics", func() {
		Expect(get("/api/models/lj/diagram").Code).To(Equal(http.StatusOK))
		Expect(get("/api/models/lj/diagram?r=0").Code).To(Equal(http.StatusUnprocessableEntity))

		body := get("/metrics").Body.String()
		Expect(body).To(ContainSubstring(`forcefield_renders_total{kind="diagram",model="lj",outcome="ok"} 1`))
		Expect(body).To(ContainSubstring(`forcefield_singularities_total{model="lj"} 1`))
	})
})

var _ = Describe("Run", func() {
	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), logging.NewNop())
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})
})
