// Package feature builds layout features from closures, for features that do
// not warrant a dedicated type.
//
//	pager := feature.New[Row]("pagination").
//		DefaultValues(domain.Values{"pageSize": 10}).
//		InitialValues(domain.State{"pageIndex": 0}).
//		Augment(func(l *layout.Layout[Row]) layout.Extensions {
//			return layout.Extensions{"nextPage": func() { ... }}
//		}).
//		Build()
package feature
