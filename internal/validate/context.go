package validate

import (
	"github.com/packagelint/packagelint/internal/lint"
)

// FileFinder is the filesystem surface rules see through their context.
type FileFinder interface {
	FindFileUp(pattern string) ([]string, error)
	ReadFile(path string) ([]byte, error)
}

// ruleContext is the lint.ValidationContext of one rule invocation.
// It is never shared, so it needs no locking.
type ruleContext struct {
	name      string
	finder    FileFinder
	errorData lint.ErrorData
}

// NewContext builds a fresh context for one invocation of rule.
func NewContext(rule *lint.PreparedRule, finder FileFinder) lint.ValidationContext {
	return &ruleContext{
		name:      rule.PreparedRuleName,
		finder:    finder,
		errorData: lint.ErrorData{},
	}
}

func (c *ruleContext) PreparedRuleName() string {
	return c.name
}

func (c *ruleContext) FindFileUp(pattern string) ([]string, error) {
	if c.finder == nil {
		return nil, &lint.InternalError{Op: "find " + pattern, Message: "no filesystem is available"}
	}
	return c.finder.FindFileUp(pattern)
}

func (c *ruleContext) ReadFile(path string) ([]byte, error) {
	if c.finder == nil {
		return nil, &lint.InternalError{Op: "read " + path, Message: "no filesystem is available"}
	}
	return c.finder.ReadFile(path)
}

func (c *ruleContext) SetErrorData(data lint.ErrorData) {
	for k, v := range data {
		c.errorData[k] = v
	}
}

func (c *ruleContext) CreateErrorToReturn(errorName string, extra lint.ErrorData) *lint.Failure {
	c.SetErrorData(extra)
	data := make(lint.ErrorData, len(c.errorData))
	for k, v := range c.errorData {
		data[k] = v
	}
	return &lint.Failure{ErrorName: errorName, ErrorData: data}
}
