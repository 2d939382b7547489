package character

// StatOp is the kind of stat delta applied to a temporary stat.
type StatOp string

const (
	// StatConsume spends one point, floored at zero.
	StatConsume StatOp = "consume"
	// StatAdd restores one point, capped at the stat's max.
	StatAdd StatOp = "add"
	// StatReset restores the stat to its max.
	StatReset StatOp = "reset"
)

// StatChange describes a stat delta mutation.
type StatChange struct {
	CharacterID int64
	// Code names the temporary stat to change.
	Code string
	Op   StatOp
	// MaxOverride, when set, takes precedence over the matching primary
	// stat's max when resolving the clamp ceiling.
	MaxOverride *int
}

// ApplyStatChange returns the character with the stat delta applied. The
// resulting value is always within [0, max]. When no max source exists, the
// current value acts as the ceiling, so an add cannot inflate an unknown
// stat.
func ApplyStatChange(c Character, v StatChange) Character {
	switch v.Op {
	case StatConsume, StatAdd, StatReset:
	default:
		return c
	}

	current := c.TemporaryStats[v.Code]
	max, ok := resolveStatMax(c, v)
	if !ok {
		max = current
	}

	out := c.clone()
	if out.TemporaryStats == nil {
		out.TemporaryStats = map[string]int{}
	}
	switch v.Op {
	case StatConsume:
		out.TemporaryStats[v.Code] = clamp(current-1, 0, max)
	case StatAdd:
		out.TemporaryStats[v.Code] = clamp(current+1, 0, max)
	case StatReset:
		out.TemporaryStats[v.Code] = max
	}
	return out
}

// resolveStatMax resolves the clamp ceiling: explicit override first, then
// the matching primary stat.
func resolveStatMax(c Character, v StatChange) (int, bool) {
	if v.MaxOverride != nil {
		return *v.MaxOverride, true
	}
	for _, stat := range c.PrimaryStats {
		if stat.Code == v.Code {
			return stat.Max, true
		}
	}
	return 0, false
}
