package optim

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/forcefield/internal/potential"
)

func TestLinspace(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Linspace(0, 1, 5)).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	g.Expect(Linspace(3, 9, 1)).To(Equal([]float64{3}))
	g.Expect(Linspace(3, 9, 0)).To(Equal([]float64{3}))
}

func TestSearchBondWell(t *testing.T) {
	g := NewWithT(t)
	m := potential.NewBond()
	base := potential.Params{"b": 7, "b0": 9, "kb": 450}

	gs := NewGridSearch([]string{"b"}, [][]float64{Linspace(1, 14, 131)})
	res, err := gs.Search(context.Background(), m, base, Objectives["energy"])
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Params["b"]).To(BeNumerically("~", 9, 1e-9))
	g.Expect(res.Params["b0"]).To(Equal(9.0))
	g.Expect(res.Sample.Energy).To(BeNumerically("~", 0, 1e-12))
	g.Expect(res.Evaluated).To(Equal(131))
	g.Expect(base["b"]).To(Equal(7.0), "base is not modified")
}

func TestSearchLennardJonesRest(t *testing.T) {
	g := NewWithT(t)
	m := potential.NewLennardJones()
	base := potential.Params{"r": 5, "sigma": 7.5, "epsilon": 2.5}

	objective, err := GetObjective("force")
	g.Expect(err).NotTo(HaveOccurred())

	gs := NewGridSearch([]string{"r"}, [][]float64{Linspace(7.5, 10, 2501)})
	res, err := gs.Search(context.Background(), m, base, objective)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Params["r"]).To(BeNumerically("~", math.Pow(2, 1.0/6)*7.5, 1e-3))
	g.Expect(res.Sample.Energy).To(BeNumerically("~", -2.5, 1e-3))
}

func TestSearchTwoParameters(t *testing.T) {
	g := NewWithT(t)
	m := potential.NewAngle()
	base := potential.DefaultParams(m.Domain())

	gs := NewGridSearch([]string{"theta", "ktheta"}, [][]float64{{80, 85, 90}, {10, 50}})
	res, err := gs.Search(context.Background(), m, base, Objectives["energy"])
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Evaluated).To(Equal(6))
	g.Expect(res.Params["theta"]).To(Equal(85.0))
	g.Expect(res.Score).To(BeZero())
}

func TestSearchSingularPoints(t *testing.T) {
	g := NewWithT(t)
	m := potential.NewLennardJones()
	base := potential.Params{"r": 5, "sigma": 7.5, "epsilon": 2.5}

	gs := NewGridSearch([]string{"r"}, [][]float64{{0}})
	res, err := gs.Search(context.Background(), m, base, Objectives["energy"])
	g.Expect(err).To(MatchError(ErrNoCandidate))
	g.Expect(res.Singular).To(Equal(1))

	gs = NewGridSearch([]string{"r"}, [][]float64{{0, 8}})
	res, err = gs.Search(context.Background(), m, base, Objectives["energy"])
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Singular).To(Equal(1))
	g.Expect(res.Params["r"]).To(Equal(8.0))
}

func TestSearchErrors(t *testing.T) {
	g := NewWithT(t)
	m := potential.NewBond()
	base := potential.DefaultParams(m.Domain())
	ctx := context.Background()

	_, err := NewGridSearch([]string{"x"}, [][]float64{{1}}).Search(ctx, m, base, Objectives["energy"])
	g.Expect(err).To(MatchError(potential.ErrUnknownParam))

	_, err = NewGridSearch([]string{"b"}, nil).Search(ctx, m, base, Objectives["energy"])
	g.Expect(err).To(MatchError(ErrGrid))

	_, err = NewGridSearch([]string{"b"}, [][]float64{{}}).Search(ctx, m, base, Objectives["energy"])
	g.Expect(err).To(MatchError(ErrGrid))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewGridSearch([]string{"b"}, [][]float64{{1, 2}}).Search(cancelled, m, base, Objectives["energy"])
	g.Expect(err).To(MatchError(context.Canceled))

	_, err = GetObjective("entropy")
	g.Expect(err).To(MatchError(ErrUnknownObjective))
	g.Expect(ObjectiveNames()).To(Equal([]string{"energy", "force"}))
}
