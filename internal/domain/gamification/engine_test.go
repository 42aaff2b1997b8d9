package gamification

import "testing"

func TestApply(t *testing.T) {
	base := Stats{Points: 40, TreesAdded: 1, TreesCared: 2, TreesIdentified: 3}

	tests := []struct {
		action Action
		delta  int
		want   Stats
	}{
		{ActionRegisterTree, 100, Stats{Points: 140, TreesAdded: 2, TreesCared: 2, TreesIdentified: 3}},
		{ActionCareForTree, 50, Stats{Points: 90, TreesAdded: 1, TreesCared: 3, TreesIdentified: 3}},
		{ActionIdentifyPlant, 10, Stats{Points: 50, TreesAdded: 1, TreesCared: 2, TreesIdentified: 4}},
		{ActionAdoptTree, 20, Stats{Points: 60, TreesAdded: 1, TreesCared: 2, TreesIdentified: 3}},
		{ActionPostComment, 5, Stats{Points: 45, TreesAdded: 1, TreesCared: 2, TreesIdentified: 3}},
		{Action("unknown"), 0, base},
		{Action(""), 0, base},
	}

	for _, tc := range tests {
		delta, got := Apply(tc.action, base)
		if delta != tc.delta {
			t.Errorf("Apply(%q) delta = %d, want %d", tc.action, delta, tc.delta)
		}
		if got != tc.want {
			t.Errorf("Apply(%q) stats = %+v, want %+v", tc.action, got, tc.want)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := Stats{Points: 10}
	Apply(ActionRegisterTree, base)
	if base.Points != 10 {
		t.Errorf("input stats mutated: %+v", base)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		level  int
		name   string
	}{
		{0, 1, "Semente"},
		{999, 1, "Semente"},
		{1000, 2, "Broto"},
		{2500, 3, "Muda"},
		{3000, 4, "Árvore Jovem"},
		{4000, 5, "Guardião da Floresta"},
		{99999, 5, "Guardião da Floresta"},
		{-5, 1, "Semente"},
	}
	for _, tc := range tests {
		level, name := LevelFor(tc.points)
		if level != tc.level || name != tc.name {
			t.Errorf("LevelFor(%d) = (%d, %q), want (%d, %q)", tc.points, level, name, tc.level, tc.name)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{150, 15},
		{999, 99},
		{1000, 100},
		{5000, 100},
		{-10, 0},
	}
	for _, tc := range tests {
		if got := ProgressPercent(tc.points); got != tc.want {
			t.Errorf("ProgressPercent(%d) = %d, want %d", tc.points, got, tc.want)
		}
	}
}

func TestAchievements(t *testing.T) {
	out := Achievements(Stats{TreesCared: 7, TreesIdentified: 5, TreesAdded: 0})
	if len(out) != 3 {
		t.Fatalf("expected 3 achievements, got %d", len(out))
	}

	cared := out[0]
	if !cared.Done || cared.Progress != 100 || cared.Current != 7 {
		t.Errorf("cared achievement = %+v", cared)
	}
	identified := out[1]
	if identified.Done || identified.Progress != 50 {
		t.Errorf("identified achievement = %+v", identified)
	}
	added := out[2]
	if added.Done || added.Progress != 0 {
		t.Errorf("added achievement = %+v", added)
	}
}
