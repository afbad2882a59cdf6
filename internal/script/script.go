// Package script runs user-supplied Lua transforms over a table. A
// transform script defines
//
//	function transform(row, col, value)
//	    return value
//	end
//
// which is called once per body cell with zero-based indexes; its
// string result replaces the cell. Returning nil keeps the cell
// unchanged.
//
// NOTE: gopher-lua's LState is not goroutine-safe; each Transform call
// creates and closes its own state.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quickmd/internal/table"
)

// Errors returned by Transform.
var (
	// ErrNoTransform indicates the script defines no transform function.
	ErrNoTransform = errors.New("script does not define transform(row, col, value)")
)

const transformFn = "transform"

// Transform loads source into a fresh Lua state and applies its
// transform function to every body cell of tbl, in row-major order.
// The table is modified in place; on error it may be partially
// transformed.
func Transform(source string, tbl *table.Table) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	fn := L.GetGlobal(transformFn)
	if fn.Type() != lua.LTFunction {
		return ErrNoTransform
	}

	for r := 0; r < tbl.RowCount(); r++ {
		for c := 0; c < tbl.ColumnCount(); c++ {
			val, err := tbl.Cell(r, c)
			if err != nil {
				return err
			}

			err = L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
				lua.LNumber(r), lua.LNumber(c), lua.LString(val))
			if err != nil {
				return fmt.Errorf("transform cell (%d,%d): %w", r, c, err)
			}

			ret := L.Get(-1)
			L.Pop(1)
			if ret == lua.LNil {
				continue
			}
			if err := tbl.SetCell(r, c, lua.LVAsString(ret)); err != nil {
				return err
			}
		}
	}
	return nil
}
