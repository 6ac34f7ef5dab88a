package testutil

import "time"

// ScenarioShow is the id of the show created by WithScenario.
const ScenarioShow = "spring-classic"

// WithScenario adds the three-dog show used across the tests: Rex and Luna
// in open class, Max in junior class.
func (b *Builder) WithScenario() *Builder {
	return b.
		WithShow(ScenarioShow, "Spring Classic", time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)).
		WithRegistration("r1", "Rex", Class("open"), Breed("Beagle", "6"), Owner("Ann Berg")).
		WithRegistration("r2", "Luna", Class("open"), Breed("Basenji", "5"), Owner("Bo Lind")).
		WithRegistration("r3", "Max", Class("junior"), Breed("Beagle", "6"), Owner("Ann Berg"))
}
