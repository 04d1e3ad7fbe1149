package compute

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/FuturFusion/compute-manager/shared/api"
)

// Helper functions available in server filter expressions.
var filterFunctions = []expr.Option{
	expr.Function("has_security_group", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("invalid number of arguments, expected 2, got: %d", len(params))
		}

		groups, ok := params[0].([]string)
		if !ok {
			return nil, fmt.Errorf("invalid argument type, expected []string, got: %T", params[0])
		}

		name, ok := params[1].(string)
		if !ok {
			return nil, fmt.Errorf("invalid argument type, expected string, got: %T", params[1])
		}

		for _, group := range groups {
			if group == name {
				return true, nil
			}
		}

		return false, nil
	}),
}

// compileServerFilter compiles a filter expression against the server wire type.
func compileServerFilter(expression string) (*vm.Program, error) {
	options := []expr.Option{
		expr.Env(api.Server{}),
		expr.AsBool(),
	}

	options = append(options, filterFunctions...)

	return expr.Compile(expression, options...)
}
