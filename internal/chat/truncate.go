package chat

// Truncate selects the subset of history to send with a new prompt.
//
// It takes the most recent maxTurns turns, then accumulates from the most
// recent backward while the running token estimate stays within half of
// tokenBudget (the other half is reserved for the new prompt and the
// response). The result is returned oldest-first regardless of the
// newest-first selection.
//
// If the single most recent turn alone exceeds the budget it is still
// included: sending an over-budget turn degrades gracefully, dropping all
// context does not.
func Truncate(history []Turn, maxTurns, tokenBudget int) []Turn {
	if len(history) == 0 {
		return nil
	}
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	reserve := tokenBudget / 2
	last := len(history) - 1
	total := turnTokens(history[last])
	start := last
	for i := last - 1; i >= 0; i-- {
		cost := turnTokens(history[i])
		if total+cost > reserve {
			break
		}
		total += cost
		start = i
	}

	out := make([]Turn, len(history)-start)
	copy(out, history[start:])
	return out
}
