package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks that every op is a supported kind and targets an allowed
// path. An allowed path ending in "/*" admits any array index or "-" below it.
// An empty allowed set admits every path.
func Validate(ops []Operation, allowedPaths []string) error {
	allowed := make(map[string]bool, len(allowedPaths))
	for _, path := range allowedPaths {
		allowed[path] = true
	}
	for i, op := range ops {
		switch op.Op {
		case OperationAdd, OperationReplace, OperationRemove:
		default:
			return fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		if err := validatePathAllowed(op.Path, allowed); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func validatePathAllowed(path string, allowed map[string]bool) error {
	if len(allowed) == 0 || allowed[path] {
		return nil
	}
	parent, last := splitLast(path)
	if allowed[parent+"/*"] && isArrayToken(last) {
		return nil
	}
	return fmt.Errorf("path %q is not in the allowed paths set", path)
}

func isArrayToken(token string) bool {
	if token == "-" {
		return true
	}
	if token == "" || strings.HasPrefix(token, "+") {
		return false
	}
	n, err := strconv.Atoi(token)
	return err == nil && n >= 0
}
