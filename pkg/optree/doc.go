// Package optree implements the path-addressed option tree that backs every
// chart builder, together with its serializer.
//
// A [Tree] is a nested structure of ordered maps, lists and scalar leaves,
// addressed with dot-separated paths such as "chart.toolbar.show". Builders
// mutate a tree with [Tree.Set] (overwrite) and [Tree.Append] (push onto a
// list) during a single configuration pass, then hand it once to [Encode].
//
// # Raw code
//
// Many chart options take JavaScript (a formatter function, a new Date(...)
// expression) rather than data. Such leaves are [KindRaw] values created with
// [WrapRaw]. [Encode] writes them verbatim, unquoted and unescaped, so the
// output is JSON everywhere except at raw spans and is meant to be consumed as
// a JavaScript object literal:
//
//	t := optree.New()
//	_ = t.Set("chart.toolbar.show", true)
//	_ = t.Set("yaxis.labels.formatter", optree.MustRaw("function(v){return v*2}"))
//	out, _ := optree.Encode(t)
//	// {"chart":{"toolbar":{"show":true}},"yaxis":{"labels":{"formatter":function(v){return v*2}}}}
//
// Input that can only carry strings (definition files) may use the legacy
// marker form, Sentinel+source+Sentinel, which [ValueOf] turns into a raw
// value on the way in.
//
// # Defaults
//
// [MergeDefaults] deep-merges a defaults tree with overrides: maps merge key
// by key, while lists and leaves are replaced outright.
//
// # Concurrency
//
// A Tree is owned by one configuration pass and is not safe for concurrent
// mutation. Independent passes must use independent trees.
package optree
