package valueobjects

import "fmt"

// Action is the verb of a permission. The set is open: the catalog may add
// verbs such as "assign" or "manage" alongside the CRUD ones.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
	ActionManage Action = "manage"
	ActionAdmin  Action = "admin"
)

func NewAction(action string) (Action, error) {
	if action == "" {
		return "", fmt.Errorf("action cannot be empty")
	}
	if len(action) > maxIdentifierLength {
		return "", fmt.Errorf("action too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierPattern.MatchString(action) {
		return "", fmt.Errorf("invalid action %q: use lowercase letters, digits and underscores", action)
	}
	return Action(action), nil
}

func (a Action) String() string {
	return string(a)
}

func (a Action) Equals(other Action) bool {
	return a == other
}
