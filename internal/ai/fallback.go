package ai

import "github.com/healthmate/healthmate-api/internal/model"

// Confidence values distinguish why a fallback was returned: 60 means no
// model candidate answered at all, 70 means a candidate answered but its
// output could not be parsed.
const (
	outageConfidence    = 60
	malformedConfidence = 70
)

func genericSummary() model.Bilingual {
	return model.Bilingual{
		English: "Report analysis completed. Please consult your doctor for detailed interpretation.",
		Urdu:    "Report analysis complete ho gaya hai. Detailed interpretation ke liye apne doctor se consult karein.",
	}
}

func genericQuestion() model.DoctorQuestionList {
	return model.DoctorQuestionList{
		{Question: model.Bilingual{
			English: "What do these results mean for my health?",
			Urdu:    "Mere health ke liye yeh results ka matlab kya hai?",
		}},
	}
}

// OutageFallback is returned when every model candidate failed. Callers can
// rely on it never being nil.
func OutageFallback() *model.Insight {
	disclaimer := model.DefaultDisclaimer
	return &model.Insight{
		Summary:             genericSummary(),
		AbnormalValues:      model.AbnormalValueList{},
		DoctorQuestions:     genericQuestion(),
		DietaryAdvice:       model.DietaryAdvice{FoodsToAvoid: []model.FoodAdvice{}, FoodsToEat: []model.FoodAdvice{}},
		HomeRemedies:        model.HomeRemedyList{},
		OverallHealthStatus: model.HealthStatusFair,
		Confidence:          outageConfidence,
		Disclaimer:          &disclaimer,
	}
}

// MalformedFallback is returned when a candidate produced output the JSON
// pipeline could not recover. Confidence and the absent disclaimer let
// consumers tell this case apart from an outage.
func MalformedFallback() *model.Insight {
	return &model.Insight{
		Summary:             genericSummary(),
		AbnormalValues:      model.AbnormalValueList{},
		DoctorQuestions:     genericQuestion(),
		DietaryAdvice:       model.DietaryAdvice{FoodsToAvoid: []model.FoodAdvice{}, FoodsToEat: []model.FoodAdvice{}},
		HomeRemedies:        model.HomeRemedyList{},
		OverallHealthStatus: model.HealthStatusFair,
		Confidence:          malformedConfidence,
	}
}
