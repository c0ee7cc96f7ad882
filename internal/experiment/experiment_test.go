package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/experiment"
)

var _ = Describe("Registry", func() {
	var reg *experiment.Registry

	BeforeEach(func() {
		reg = experiment.NewRegistry()
	})

	It("lists the engines in order", func() {
		Expect(reg.ListEngines()).To(Equal([]string{"chipmunk", "simple"}))
		Expect(reg.ListIntegrators()).To(ContainElements("euler", "symplectic", "verlet"))
	})

	It("rejects unknown engines and schemes", func() {
		_, err := reg.GetEngine("havok", "", engine.DefaultTiming())
		Expect(err).To(MatchError(ContainSubstring("unknown engine")))

		_, err = reg.GetEngine("simple", "leapfrog", engine.DefaultTiming())
		Expect(err).To(HaveOccurred())
	})

	It("picks default metrics for visible bodies only", func() {
		model, err := experiment.Build(reg, config.GetPreset("mixed"), nil)
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, m := range reg.DefaultMetrics(model) {
			names = append(names, m.Name())
		}
		Expect(names).To(ContainElements("volume_drift", "overflow", "stability", "submersion_cube", "settling_duck"))
		Expect(names).NotTo(ContainElement("submersion_ghost"))
		Expect(names).NotTo(ContainElement("submersion_punt"))
	})
})

var _ = Describe("Experiment", func() {
	run := func(cfg *config.Config) map[string]float64 {
		exp := experiment.New(cfg, nil)
		Expect(exp.Setup(experiment.NewRegistry())).To(Succeed())

		res, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Errors).To(BeEmpty())
		Expect(res.Final().Finite()).To(BeTrue())
		return res.Metrics
	}

	DescribeTable("every preset builds and runs briefly",
		func(name string) {
			cfg := config.GetPreset(name)
			Expect(cfg).NotTo(BeNil())
			cfg.Duration = 0.5

			m := run(cfg)
			Expect(m).To(HaveKey("volume_drift"))
			if name != "overflow" {
				Expect(m["overflow"]).To(BeZero())
			}
		},
		Entry("cube", "cube"),
		Entry("cone", "cone"),
		Entry("overflow", "overflow"),
		Entry("boat-fill", "boat-fill"),
		Entry("boat-spill", "boat-spill"),
		Entry("duck", "duck"),
		Entry("bottle", "bottle"),
		Entry("mixed", "mixed"),
	)

	It("runs the cube on the chipmunk engine", func() {
		cfg := config.GetPreset("cube")
		cfg.Engine = "chipmunk"
		cfg.Duration = 1

		m := run(cfg)
		Expect(m["volume_drift"]).To(BeNumerically("<", 1e-9))
		Expect(m["submersion_cube"]).To(BeNumerically(">", 0))
	})

	It("discards the overflow of a brim-full tank", func() {
		cfg := config.GetPreset("overflow")
		cfg.Duration = 1

		m := run(cfg)
		Expect(m["overflow"]).To(BeNumerically("~", 0.01, 1e-6))
	})

	It("fails setup on a bad scene", func() {
		cfg := config.GetPreset("cube")
		cfg.Pools[0].Volume = -1

		exp := experiment.New(cfg, nil)
		Expect(exp.Setup(experiment.NewRegistry())).To(MatchError(config.ErrInvalidConfig))

		_, err := exp.Run(context.Background())
		Expect(err).To(MatchError("experiment not setup"))
	})

	It("fails setup on an unknown engine", func() {
		cfg := config.GetPreset("cube")
		cfg.Engine = "havok"
		Expect(experiment.New(cfg, nil).Setup(experiment.NewRegistry())).To(HaveOccurred())
	})
})
