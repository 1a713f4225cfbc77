// Package catalog serves the built-in exercise list. It is loaded once and
// never modified.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/saeid-a/FitProBack/internal/models"
)

//go:embed exercises.json
var exercisesJSON []byte

var (
	exercises = mustLoad(exercisesJSON)
	byID      = index(exercises)
)

func mustLoad(raw []byte) []models.ExerciseDefinition {
	var out []models.ExerciseDefinition
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("catalog: decode exercises: %v", err))
	}
	for i := range out {
		normalize(&out[i])
	}
	return out
}

func normalize(e *models.ExerciseDefinition) {
	if e.PrimaryMuscles == nil {
		e.PrimaryMuscles = []string{}
	}
	if e.SecondaryMuscles == nil {
		e.SecondaryMuscles = []string{}
	}
	if e.Instructions == nil {
		e.Instructions = []string{}
	}
	if e.SafetyNotes == nil {
		e.SafetyNotes = []string{}
	}
}

func index(list []models.ExerciseDefinition) map[string]int {
	out := make(map[string]int, len(list))
	for i, e := range list {
		out[e.ID] = i
	}
	return out
}

// All returns a copy of the catalog in its canonical order.
func All() []models.ExerciseDefinition {
	out := make([]models.ExerciseDefinition, len(exercises))
	copy(out, exercises)
	return out
}

func ByID(id string) (models.ExerciseDefinition, bool) {
	i, ok := byID[id]
	if !ok {
		return models.ExerciseDefinition{}, false
	}
	return exercises[i], true
}

// WithCustom appends a user's custom exercises after the catalog. Custom
// entries reusing a catalog id are skipped.
func WithCustom(custom []models.ExerciseDefinition) []models.ExerciseDefinition {
	out := All()
	for _, e := range custom {
		if _, clash := byID[e.ID]; clash {
			continue
		}
		normalize(&e)
		out = append(out, e)
	}
	return out
}
