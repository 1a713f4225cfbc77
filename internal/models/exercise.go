package models

type ExerciseDefinition struct {
	ID               string   `json:"id"`
	NameEn           string   `json:"nameEn"`
	NameFa           string   `json:"nameFa"`
	MuscleGroup      string   `json:"muscleGroup"`
	Equipment        string   `json:"equipment"`
	Mechanics        string   `json:"mechanics,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	MovementPattern  string   `json:"movementPattern,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	SafetyNotes      []string `json:"safetyNotes"`
}
