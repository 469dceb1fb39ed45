// Package http provides small request and JSON response helpers for the
// inspection API.
//
//	req := gohttp.NewRequest(r)
//	name := req.RouteParam("name")
//	resolved, ok := req.QueryBool("resolved")
//
//	res := gohttp.NewResponse(w)
//	res.Success(v)              // 200 {"data": v}
//	res.NotFound()              // 404 {"message": "Not found."}
//	res.Conflict(msg, path)     // 409 {"message": msg, "detail": path}
//	res.ValidationError(bag)    // 422 {"errors": {...}}
package http
