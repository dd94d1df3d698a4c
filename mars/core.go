package mars

const (
	COMMANDS_MAX = 8000 // Number of cells in the core.
)

// Wrap folds an index into the core, so the result is always in
// [0, COMMANDS_MAX).
func Wrap(index int) int {
	index %= COMMANDS_MAX
	if index < 0 {
		index += COMMANDS_MAX
	}
	return index
}
