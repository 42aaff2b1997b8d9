package gamification

// pointsPerLevel is the fixed stride toward the next level. The profile
// progress bar always measures against it, so 1000 points reads as 100%.
const pointsPerLevel = 1000

var levelNames = []string{
	"Semente",
	"Broto",
	"Muda",
	"Árvore Jovem",
	"Guardião da Floresta",
}

// LevelFor derives the level number and name from cumulative points.
func LevelFor(points int) (int, string) {
	if points < 0 {
		points = 0
	}
	level := points/pointsPerLevel + 1
	if level > len(levelNames) {
		level = len(levelNames)
	}
	return level, levelNames[level-1]
}

// ProgressPercent is the rounded progress toward the next level, capped at
// 100.
func ProgressPercent(points int) int {
	if points < 0 {
		points = 0
	}
	p := points * 100 / pointsPerLevel
	if p > 100 {
		p = 100
	}
	return p
}
