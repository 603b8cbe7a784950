package formula

// GridSize is the unlocked placement area in cells.
type GridSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Slots is the number of placement cells.
func (g GridSize) Slots() int {
	return g.Width * g.Height
}

// gridProgression is indexed by room-space upgrade level.
var gridProgression = []GridSize{
	{3, 3},
	{3, 4},
	{4, 4},
	{4, 5},
	{5, 5},
	{5, 6},
	{6, 6},
}

// MaxGridLevel is the last room-space level.
var MaxGridLevel = len(gridProgression) - 1

// GridSizeForLevel returns the grid for a room-space level, clamped to [0, MaxGridLevel].
func GridSizeForLevel(level int) GridSize {
	if level < 0 {
		level = 0
	}
	if level > MaxGridLevel {
		level = MaxGridLevel
	}
	return gridProgression[level]
}

// LevelForGridSize is the inverse of GridSizeForLevel. ok is false for
// dimensions that are not part of the progression.
func LevelForGridSize(width, height int) (level int, ok bool) {
	for i, g := range gridProgression {
		if g.Width == width && g.Height == height {
			return i, true
		}
	}
	return 0, false
}
