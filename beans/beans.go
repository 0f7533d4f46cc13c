/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2026 The Groundwork Authors

This file is part of Groundwork.

Groundwork is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Groundwork is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Groundwork. If not, see https://www.gnu.org/licenses/.
*/

// Package beans introspects struct properties by name.
//
// A property is an exported struct field, including fields promoted
// from embedded structs. Property lists are computed once per type and
// cached.
package beans

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Property describes one exported field of a struct type.
type Property struct {
	// Name is the field name as declared.
	Name string
	// Type is the field's type.
	Type reflect.Type
	// Tag carries the raw struct tag for annotation-style metadata.
	Tag reflect.StructTag
	// Index addresses the field for reflect lookups, including the
	// path through embedded structs.
	Index []int
}

// propCache maps a struct reflect.Type to its []Property.
var propCache sync.Map

// Properties lists the exported properties of v, which must be a
// struct or a pointer to one.
func Properties(v any) ([]Property, error) {
	t, _, err := structValue(v, false)
	if err != nil {
		return nil, err
	}
	return typeProperties(t), nil
}

func typeProperties(t reflect.Type) []Property {
	if cached, ok := propCache.Load(t); ok {
		return cached.([]Property)
	}

	var props []Property
	for _, f := range reflect.VisibleFields(t) {
		if f.PkgPath != "" {
			continue // unexported
		}
		if f.Anonymous {
			k := f.Type.Kind()
			if k == reflect.Struct || (k == reflect.Ptr && f.Type.Elem().Kind() == reflect.Struct) {
				continue // the embedded struct itself; its fields are promoted
			}
		}
		props = append(props, Property{
			Name:  f.Name,
			Type:  f.Type,
			Tag:   f.Tag,
			Index: f.Index,
		})
	}

	propCache.Store(t, props)
	return props
}

// Lookup finds a property by name: exact match first, then a
// normalized (first-rune case-insensitive) match.
func Lookup(v any, name string) (Property, bool) {
	t, _, err := structValue(v, false)
	if err != nil {
		return Property{}, false
	}

	props := typeProperties(t)
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	norm := Normalize(name)
	for _, p := range props {
		if Normalize(p.Name) == norm {
			return p, true
		}
	}
	return Property{}, false
}

// Get returns the value of the named property of v.
func Get(v any, name string) (any, error) {
	t, rv, err := structValue(v, false)
	if err != nil {
		return nil, err
	}

	p, ok := Lookup(v, name)
	if !ok {
		return nil, fmt.Errorf("beans: %s has no property %q", t, name)
	}

	fv, err := rv.FieldByIndexErr(p.Index)
	if err != nil {
		return nil, fmt.Errorf("beans: reading %s.%s: %w", t, p.Name, err)
	}
	return fv.Interface(), nil
}

// Set assigns value to the named property. The target must be a
// pointer to a struct; the value must be assignable or convertible to
// the property type.
func Set(target any, name string, value any) error {
	t, rv, err := structValue(target, true)
	if err != nil {
		return err
	}

	p, ok := Lookup(target, name)
	if !ok {
		return fmt.Errorf("beans: %s has no property %q", t, name)
	}

	fv, err := rv.FieldByIndexErr(p.Index)
	if err != nil {
		return fmt.Errorf("beans: addressing %s.%s: %w", t, p.Name, err)
	}

	nv := reflect.ValueOf(value)
	switch {
	case value == nil:
		switch p.Type.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			fv.Set(reflect.Zero(p.Type))
			return nil
		default:
			return fmt.Errorf("beans: cannot set %s.%s (%s) to nil", t, p.Name, p.Type)
		}
	case nv.Type().AssignableTo(p.Type):
		fv.Set(nv)
		return nil
	case nv.Type().ConvertibleTo(p.Type):
		fv.Set(nv.Convert(p.Type))
		return nil
	default:
		return fmt.Errorf("beans: cannot set %s.%s (%s) from %s", t, p.Name, p.Type, nv.Type())
	}
}

// Normalize lowercases the first rune of a property name, matching the
// conventional lowerCamel key form.
func Normalize(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// structValue unwraps v to its struct type and value. When needAddr is
// set, v must be a non-nil pointer to a struct.
func structValue(v any, needAddr bool) (reflect.Type, reflect.Value, error) {
	if v == nil {
		return nil, reflect.Value{}, fmt.Errorf("beans: nil value")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, reflect.Value{}, fmt.Errorf("beans: nil %s", rv.Type())
		}
		rv = rv.Elem()
	} else if needAddr {
		return nil, reflect.Value{}, fmt.Errorf("beans: need a struct pointer, got %T", v)
	}

	if rv.Kind() != reflect.Struct {
		return nil, reflect.Value{}, fmt.Errorf("beans: need a struct, got %T", v)
	}
	return rv.Type(), rv, nil
}
