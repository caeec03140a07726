// Package hooks implements the request lifecycle hook pipeline: ordered
// before, after and teardown hook lists scoped globally or per blueprint.
//
// Before hooks run ahead of the handler and may short-circuit dispatch by
// returning a value or an error. After hooks post-process the response in
// reverse registration order. Teardown hooks run unconditionally at the
// end of every dispatch; their failures are logged, never propagated.
//
// The package also ships ready-made hooks: RequestID and RequestLogger.
package hooks
