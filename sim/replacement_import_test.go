package sim_test

// Blank import triggers sim/replacement's init(), which registers
// NewReplacementPolicyFunc. This lets package sim's internal test files build
// translators and schedulers without importing sim/replacement directly
// (which would create an import cycle).
import _ "github.com/pagesim/pagesim/sim/replacement"
