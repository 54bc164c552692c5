package metrics

// Noop implements domain.repository.Metrics and records nothing. It backs
// runs with metrics disabled and keeps test wiring simple.
type Noop struct{}

func (Noop) RecordPrediction(string, string) {}
func (Noop) RecordTraining(string) {}
func (Noop) RecordTrainingDuration(float64) {}
func (Noop) RecordSkipped(string) {}
func (Noop) RecordProbability(string, float64) {}
