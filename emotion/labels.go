package emotion

// The closed label set. Every scoring model emits raw scores in this order,
// and the message table must cover exactly these labels.
const (
	LabelJoy     = "Joy"
	LabelSadness = "Sadness"
	LabelAnxiety = "Anxiety"
	LabelNeutral = "Neutral"
	LabelAnger   = "Anger"
)

// Labels returns the canonical label set in model score order
func Labels() []string {
	return []string{LabelJoy, LabelSadness, LabelAnxiety, LabelNeutral, LabelAnger}
}

// DefaultMessages returns the supportive message for each label
func DefaultMessages() map[string]string {
	return map[string]string{
		LabelJoy:     "Wonderful! Your positive energy is contagious. Keep cultivating these moments of happiness and share them with others.",
		LabelSadness: "It is completely normal to feel sad. These feelings are temporary and part of the human experience. Don't hesitate to reach out for support.",
		LabelAnxiety: "Breathe deeply and slowly. Anxiety can be overwhelming, but remember you have the strength to get through it. Consider relaxation techniques.",
		LabelNeutral: "A balanced state is very valuable. Take advantage of this calm to reflect, plan, and look after your mental well-being.",
		LabelAnger:   "Anger is a valid emotion that tells us something needs attention. Try to identify the cause and find constructive ways to express it.",
	}
}
