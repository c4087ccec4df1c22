package ai

import "fmt"

// analysisPrompt is the fixed bilingual prompt template. It mandates the JSON
// shape the extraction stage expects and is parameterized only by report type
// and file locator.
const analysisPrompt = `You are a medical AI assistant. Analyze this medical report and provide a comprehensive analysis in both English and Roman Urdu (using English script for Urdu words).

Report Type: %s
File URL: %s

Please provide the following in JSON format:

{
	"summary": {
		"english": "Brief summary in English",
		"urdu": "Brief summary in Roman Urdu"
	},
	"abnormalValues": [
		{
			"testName": "Test name",
			"value": "Actual value",
			"normalRange": "Normal range",
			"severity": "low/normal/high/critical",
			"explanation": {
				"english": "Explanation in English",
				"urdu": "Explanation in Roman Urdu"
			}
		}
	],
	"doctorQuestions": [
		{
			"question": {
				"english": "Question in English",
				"urdu": "Question in Roman Urdu"
			}
		}
	],
	"dietaryAdvice": {
		"foodsToAvoid": [
			{
				"name": {"english": "Food name in English", "urdu": "Food name in Roman Urdu"},
				"reason": {"english": "Reason in English", "urdu": "Reason in Roman Urdu"}
			}
		],
		"foodsToEat": [
			{
				"name": {"english": "Food name in English", "urdu": "Food name in Roman Urdu"},
				"reason": {"english": "Reason in English", "urdu": "Reason in Roman Urdu"}
			}
		]
	},
	"homeRemedies": [
		{
			"remedy": {"english": "Remedy in English", "urdu": "Remedy in Roman Urdu"},
			"instructions": {"english": "Instructions in English", "urdu": "Instructions in Roman Urdu"}
		}
	],
	"overallHealthStatus": "excellent/good/fair/poor/critical",
	"confidence": 85
}

Important guidelines:
1. Always include disclaimers about consulting doctors
2. Be accurate and conservative in medical advice
3. Use simple language for both English and Urdu
4. Focus on abnormal values and their implications
5. Provide practical dietary and lifestyle advice
6. Include 3-5 relevant questions for the doctor`

func buildPrompt(reportType, fileURL string) string {
	return fmt.Sprintf(analysisPrompt, reportType, fileURL)
}
