package grade

// Method classifies how an activity column is graded.
type Method string

const (
	MethodStandard Method = "standard"
	MethodRubric   Method = "rubric"
)

// ResolveMethod is a pure membership test against the course's rubric
// registry; no further inference.
func ResolveMethod(rubricActivityIDs map[string]struct{}, activityID string) Method {
	if _, ok := rubricActivityIDs[activityID]; ok {
		return MethodRubric
	}
	return MethodStandard
}
