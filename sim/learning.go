package sim

// learningState tracks phenotype aversions per learner. The engine keys
// learners by predator species index, so every individual of a species
// shares its aversions. Each counter holds the number of generation
// boundaries the aversion survives; zero is not averse, so recording with
// zero memory leaves the learner undeterred.
type learningState struct {
	nphen  int
	remain []int // learner-major: remain[learner*nphen+phen]
}

func newLearningState(learners, phenotypes int) *learningState {
	return &learningState{
		nphen:  phenotypes,
		remain: make([]int, learners*phenotypes),
	}
}

// record sets the remaining decay for (learner, phen) to memory,
// overwriting any earlier value.
func (l *learningState) record(learner, phen, memory int) {
	l.remain[learner*l.nphen+phen] = memory
}

// averse reports whether the learner currently avoids the phenotype.
func (l *learningState) averse(learner, phen int) bool {
	return l.remain[learner*l.nphen+phen] > 0
}

// decay ages every aversion by one generation boundary, flooring at zero.
func (l *learningState) decay() {
	for i, r := range l.remain {
		if r > 0 {
			l.remain[i] = r - 1
		}
	}
}

// reset forgets everything.
func (l *learningState) reset() {
	clear(l.remain)
}
