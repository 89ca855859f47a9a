package allocation

import (
	"fmt"
	"strings"
)

// Role is one of the two allocation roles tracked per school
type Role string

const (
	RoleDirector    Role = "diretor"
	RoleCoordinator Role = "coordenador"
)

// Roles lists the tracked roles in display order
var Roles = []Role{RoleDirector, RoleCoordinator}

// ParseRole accepts the Portuguese and English spellings, singular or plural
func ParseRole(s string) (Role, error) {
	switch NormalizeKey(s) {
	case "DIRETOR", "DIRETORES", "DIRETORA", "DIRECTOR", "DIRECTORS", "DIR":
		return RoleDirector, nil
	case "COORDENADOR", "COORDENADORES", "COORDENADORA", "COORDINATOR", "COORDINATORS", "COORD":
		return RoleCoordinator, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Label is the plural heading used in the dashboard, e.g. "Diretores"
func (r Role) Label() string {
	switch r {
	case RoleCoordinator:
		return "Coordenadores"
	default:
		return "Diretores"
	}
}

// Singular is used in per-school status texts, e.g. "Com Diretor"
func (r Role) Singular() string {
	s := string(r)
	if s == "" {
		s = string(RoleDirector)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
