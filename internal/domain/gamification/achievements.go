package gamification

// Achievement is a named goal over one counter.
type Achievement struct {
	Name     string `json:"name"`
	Current  int    `json:"current"`
	Goal     int    `json:"goal"`
	Progress int    `json:"progress"` // percent, capped at 100
	Done     bool   `json:"done"`
}

// Achievements evaluates the fixed achievement set against the stats.
func Achievements(s Stats) []Achievement {
	return []Achievement{
		achievement("Guardiã Iniciante", s.TreesCared, 5),
		achievement("Botânica de Primeira", s.TreesIdentified, 10),
		achievement("Desbravador(a)", s.TreesAdded, 3),
	}
}

func achievement(name string, current, goal int) Achievement {
	p := current * 100 / goal
	if p > 100 {
		p = 100
	}
	return Achievement{
		Name:     name,
		Current:  current,
		Goal:     goal,
		Progress: p,
		Done:     current >= goal,
	}
}
