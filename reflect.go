// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vsim

import (
	"reflect"
	"strings"

	"github.com/db47h/vsim/internal/hdl"
	"github.com/pkg/errors"
)

// Bind declares the signals described by the field tags of the struct pointed
// to by v and sets each tagged field to the allocated pin number. Tagged fields
// must be of type int.
//
// The field tag must be `vsim:"in"`, `vsim:"out"` or `vsim:"wire"`, optionally
// followed by a width in brackets. By default, the signal name is the field
// name. A specific name can be forced by adding it in the tag:
//
//	type adder4 struct {
//		A    int `vsim:"in[4],a"`
//		B    int `vsim:"in[4],b"`
//		Sum  int `vsim:"out[4],sum"`
//		Cout int `vsim:"out"`
//	}
//
//	func (a *adder4) Mount(s *vsim.Socket) error { return vsim.Bind(s, a) }
//
// Fields are declared in order.
//
func Bind(s *Socket, v interface{}) error {
	pv := reflect.ValueOf(v)
	if pv.Kind() != reflect.Ptr || pv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("unsupported type %T, expected pointer to struct", v)
	}
	e := pv.Elem()
	typ := e.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("vsim")
		if !ok {
			continue
		}
		name := f.Name
		tv := strings.Split(tag, ",")
		switch len(tv) {
		case 1:
		case 2:
			if tv[1] != "" {
				name = tv[1]
			}
		default:
			return errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name())
		}
		ds, err := hdl.ParseDecls(tv[0])
		if err != nil || len(ds) != 1 {
			return errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name())
		}
		var k Kind
		switch ds[0].Name {
		case "in":
			k = Input
		case "out":
			k = Output
		case "wire":
			k = Internal
		default:
			return errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name())
		}
		if f.Type.Kind() != reflect.Int {
			return errors.Errorf("unsupported type %q for field %q in %q", f.Type.Kind(), f.Name, typ.Name())
		}
		fv := e.Field(i)
		if !fv.CanSet() {
			return errors.Errorf("field %q in %q is not exported", f.Name, typ.Name())
		}
		n, err := s.Add(name, ds[0].Width, k)
		if err != nil {
			return errors.Wrap(err, typ.Name())
		}
		fv.SetInt(int64(n))
	}
	return nil
}
