package catalog

// CategoryInfo describes one challenge category for listing endpoints.
type CategoryInfo struct {
	Description     string `json:"description"`
	DifficultyRange string `json:"difficulty_range"`
	TotalChallenges int    `json:"total_challenges"`
}

// OWASPInfo describes one OWASP LLM Top 10 category.
type OWASPInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Prevalence  string `json:"prevalence"`
}

// DifficultyInfo describes the point range and display color of a difficulty
// level.
type DifficultyInfo struct {
	PointsRange string `json:"points_range"`
	Color       string `json:"color"`
}

// Categories returns descriptions of the built-in challenge categories.
func Categories() map[string]CategoryInfo {
	return map[string]CategoryInfo{
		"Advanced Prompt Injection": {
			Description:     "Sophisticated prompt injection techniques that bypass modern safety measures",
			DifficultyRange: "Medium to Expert",
			TotalChallenges: 3,
		},
		"Indirect Injection": {
			Description:     "Attacks that inject malicious prompts through data sources and retrieval systems",
			DifficultyRange: "Expert",
			TotalChallenges: 1,
		},
		"Psychological Jailbreaking": {
			Description:     "Social engineering and emotional manipulation to bypass AI safety",
			DifficultyRange: "Medium to Hard",
			TotalChallenges: 1,
		},
		"Output Exploitation": {
			Description:     "Exploiting how AI outputs are processed and rendered",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Model Poisoning": {
			Description:     "Attacking the integrity of AI models through training data manipulation",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"DoS Attacks": {
			Description:     "Denial of Service attacks against AI systems",
			DifficultyRange: "Medium to Hard",
			TotalChallenges: 2,
		},
		"Supply Chain": {
			Description:     "Attacks on the AI development and deployment pipeline",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Data Extraction": {
			Description:     "Extracting sensitive information from AI models",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Plugin Security": {
			Description:     "Vulnerabilities in AI plugin architectures",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Agent Control": {
			Description:     "Manipulating autonomous AI agents",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Trust Exploitation": {
			Description:     "Exploiting user trust in AI systems",
			DifficultyRange: "Medium to Hard",
			TotalChallenges: 2,
		},
		"Model Theft": {
			Description:     "Stealing AI models and their intellectual property",
			DifficultyRange: "Hard to Expert",
			TotalChallenges: 2,
		},
		"Adversarial AI": {
			Description:     "Advanced adversarial attacks on AI systems",
			DifficultyRange: "Expert",
			TotalChallenges: 5,
		},
	}
}

// OWASPMapping returns the OWASP LLM Top 10 reference table.
func OWASPMapping() map[string]OWASPInfo {
	return map[string]OWASPInfo{
		"LLM01": {
			Name:        "Prompt Injection",
			Description: "Manipulating AI models through crafted prompts to bypass safety measures",
			Severity:    "High",
			Prevalence:  "Very Common",
		},
		"LLM02": {
			Name:        "Insecure Output Handling",
			Description: "Inadequate handling of AI-generated outputs leading to downstream vulnerabilities",
			Severity:    "High",
			Prevalence:  "Common",
		},
		"LLM03": {
			Name:        "Training Data Poisoning",
			Description: "Manipulating training data to introduce vulnerabilities or backdoors",
			Severity:    "Critical",
			Prevalence:  "Medium",
		},
		"LLM04": {
			Name:        "Model Denial of Service",
			Description: "Resource exhaustion attacks against AI models",
			Severity:    "Medium",
			Prevalence:  "Common",
		},
		"LLM05": {
			Name:        "Supply Chain Vulnerabilities",
			Description: "Vulnerabilities in the AI development and deployment pipeline",
			Severity:    "High",
			Prevalence:  "Medium",
		},
		"LLM06": {
			Name:        "Sensitive Information Disclosure",
			Description: "Unintentional exposure of sensitive data through AI interactions",
			Severity:    "High",
			Prevalence:  "Very Common",
		},
		"LLM07": {
			Name:        "Insecure Plugin Design",
			Description: "Security flaws in AI plugin architectures and integrations",
			Severity:    "High",
			Prevalence:  "Common",
		},
		"LLM08": {
			Name:        "Excessive Agency",
			Description: "AI systems with overly broad permissions or capabilities",
			Severity:    "Medium",
			Prevalence:  "Common",
		},
		"LLM09": {
			Name:        "Overreliance",
			Description: "Excessive trust in AI outputs without proper validation",
			Severity:    "Medium",
			Prevalence:  "Very Common",
		},
		"LLM10": {
			Name:        "Model Theft",
			Description: "Unauthorized access to or replication of AI models",
			Severity:    "Medium",
			Prevalence:  "Medium",
		},
	}
}

// DifficultyLevels returns display metadata per difficulty level.
func DifficultyLevels() map[string]DifficultyInfo {
	return map[string]DifficultyInfo{
		"easy":   {PointsRange: "10-50", Color: "#00ff88"},
		"medium": {PointsRange: "40-80", Color: "#ffbe0b"},
		"hard":   {PointsRange: "70-150", Color: "#ff006e"},
		"expert": {PointsRange: "100-200", Color: "#9c88ff"},
	}
}
