package portfolio

import "github.com/AshtonOli/Multi-Asset-Analysis/internal/model"

// Recompute derives value, total value and normalized weights for the
// given symbol states. With a zero total every weight is zero, so a
// division by zero can never leak NaN or Inf into observable state.
// Callers run this under the store's write lock, immediately after any
// mutation of units or last close.
func Recompute(states map[string]*model.SymbolState) (totalValue float64) {
	for _, st := range states {
		st.Value = st.LastClose * st.Units
		totalValue += st.Value
	}
	if totalValue == 0 {
		for _, st := range states {
			st.Weight = 0
		}
		return 0
	}
	for _, st := range states {
		st.Weight = st.Value / totalValue
	}
	return totalValue
}
