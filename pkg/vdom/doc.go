// Package vdom provides the virtual node tree that fetchview views render to.
//
// VNode is the building block: elements, text, fragments and raw HTML.
// Elements are created using variadic factory functions:
//
//	Div(Class("header"),
//	    H1(Text(profile.Name)),
//	    Img(Src(profile.AvatarURL), Alt(profile.Name+"'s avatar")),
//	)
//
// Arguments may be attributes (Attr, []Attr), children (*VNode, []*VNode)
// or plain strings, which become text nodes. Nil arguments are ignored so
// conditional content can be written inline.
package vdom
