package testkit

import (
	"fmt"
	"math/rand"
)

// NetworkConfig configures the synthetic school network generator
type NetworkConfig struct {
	Regions             int     `json:"regions"`
	HubsPerRegion       int     `json:"hubs_per_region"`
	SchoolsPerHub       int     `json:"schools_per_hub"`
	MaxClasses          int     `json:"max_classes"`
	DirectorFillRate    float64 `json:"director_fill_rate"`
	CoordinatorFillRate float64 `json:"coordinator_fill_rate"`
	Seed                int64   `json:"seed"`
}

// DefaultNetworkConfig returns a small network, about the size of one state's pilot
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Regions:             4,
		HubsPerRegion:       3,
		SchoolsPerHub:       5,
		MaxClasses:          4,
		DirectorFillRate:    0.75,
		CoordinatorFillRate: 0.5,
		Seed:                42,
	}
}

// Network holds the rows of both workbooks, header first
type Network struct {
	Hierarchy  [][]interface{}
	Allocation [][]interface{}
}

var (
	hierarchyHeader  = []interface{}{"GRE", "POLO", "TURMA", "ESCOLA", "INEP"}
	allocationHeader = []interface{}{"GRE", "INEP", "ESCOLA", "POLO", "FUNÇÃO", "NOME DO COORDENADOR"}
	allocationTitle  = []interface{}{"Relatório dos Coordenadores de Polo - Diretores de Escolas"}

	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fábio", "Gabriela", "Heitor", "Iara", "João"}
	lastNames  = []string{"Silva", "Souza", "Lima", "Ferreira", "Alves", "Costa", "Pereira", "Rocha"}
)

// NetworkGenerator builds reproducible hierarchy and allocation tables
type NetworkGenerator struct {
	config NetworkConfig
	rng    *rand.Rand
}

// NewNetworkGenerator creates a generator seeded from config
func NewNetworkGenerator(config NetworkConfig) *NetworkGenerator {
	if config.MaxClasses < 1 {
		config.MaxClasses = 1
	}
	return &NetworkGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces one hierarchy row per class and one allocation row per
// school and role. Unfilled positions read "Sem informação", as in the
// published report.
func (g *NetworkGenerator) Generate() *Network {
	n := &Network{
		Hierarchy:  [][]interface{}{hierarchyHeader},
		Allocation: [][]interface{}{allocationTitle, allocationHeader},
	}

	inep := 26100000
	for r := 1; r <= g.config.Regions; r++ {
		gre := fmt.Sprintf("GRE %02d", r)
		for h := 1; h <= g.config.HubsPerRegion; h++ {
			polo := fmt.Sprintf("Polo %02d.%d", r, h)
			for s := 1; s <= g.config.SchoolsPerHub; s++ {
				inep++
				escola := fmt.Sprintf("Escola Estadual %02d-%d-%d", r, h, s)

				classes := 1 + g.rng.Intn(g.config.MaxClasses)
				for c := 1; c <= classes; c++ {
					n.Hierarchy = append(n.Hierarchy, []interface{}{gre, polo, fmt.Sprintf("%dº ano", c), escola, inep})
				}

				n.Allocation = append(n.Allocation,
					[]interface{}{gre, inep, escola, polo, "Diretor", g.person(g.config.DirectorFillRate)},
					[]interface{}{gre, inep, escola, polo, "Coordenador", g.person(g.config.CoordinatorFillRate)},
				)
			}
		}
	}
	return n
}

func (g *NetworkGenerator) person(rate float64) string {
	if g.rng.Float64() >= rate {
		return "Sem informação"
	}
	return firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))]
}

// SampleNetwork is a fixed network with known directors coverage:
//
//	GRE 1 / Polo A: 1 of 2 schools (50.0%), Polo B: 1 of 1 (100.0%)
//	GRE 2 / Polo C: 0 of 1 (0.0%)
//
// Overall 2 of 4 (50.0%). No coordinator is listed.
func SampleNetwork() *Network {
	return &Network{
		Hierarchy: [][]interface{}{
			hierarchyHeader,
			{"GRE 1", "Polo A", "1º ano", "Escola Alfa", 26000001},
			{"GRE 1", "Polo A", "2º ano", "Escola Alfa", 26000001},
			{"GRE 1", "Polo A", "1º ano", "Escola Beta", 26000002},
			{"GRE 1", "Polo B", "1º ano", "Escola Gama", 26000003},
			{"GRE 2", "Polo C", "1º ano", "Escola Delta", 26000004},
		},
		Allocation: [][]interface{}{
			allocationTitle,
			allocationHeader,
			{"GRE 1", 26000001, "Escola Alfa", "Polo A", "Diretor", "Maria Souza"},
			{"GRE 1", 26000002, "Escola Beta", "Polo A", "Diretor", "Sem informação"},
			{"GRE 1", 26000003, "Escola Gama", "Polo B", "Diretor", "João Lima"},
			{"GRE 2", 26000004, "Escola Delta", "Polo C", "Diretor", ""},
		},
	}
}
