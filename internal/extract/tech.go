package extract

import (
	"regexp"
)

// vocabulary is matched in order; results keep this order and casing.
var vocabulary = []string{
	"Python", "JavaScript", "TypeScript", "Rust", "Go", "Java", "C++", "C#",
	"Ruby", "PHP", "Scala", "Kotlin", "Swift", "React", "Vue", "Angular",
	"Node.js", "Django", "Flask", "Rails", "Spring", "FastAPI",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
	"Docker", "Kubernetes", "AWS", "GCP", "Azure", "Terraform",
	"GraphQL", "REST", "gRPC", "Kafka", "RabbitMQ",
	"Machine Learning", "ML", "AI", "Deep Learning", "NLP",
	"iOS", "Android", "React Native", "Flutter",
}

var techPatterns = compileVocabulary(vocabulary)

// A term must not touch a letter, digit or '+'/'#' on either side, so "Go"
// does not match "Google" and "ML" does not match "HTML".
func compileVocabulary(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^\pL\pN+#.])` + regexp.QuoteMeta(term) + `(?:$|[^\pL\pN+#])`)
	}
	return out
}

// Technologies returns the vocabulary entries mentioned in text.
func Technologies(text string) []string {
	var found []string
	for i, re := range techPatterns {
		if re.MatchString(text) {
			found = append(found, vocabulary[i])
		}
	}
	return found
}
