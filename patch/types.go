package patch

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationRemove  = "remove"
)

// Operation is a single RFC6902 operation. Only add, replace and remove are
// accepted by Validate.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

func Replace(path string, value any) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: value}
}

func Add(path string, value any) Operation {
	return Operation{Op: OperationAdd, Path: path, Value: value}
}

func Remove(path string) Operation {
	return Operation{Op: OperationRemove, Path: path}
}
