/*
Package query turns tagged SQL templates into bound statements and runs them
against a storage.Store.

A template is a list of literal fragments interleaved with values. Values are
never written into the SQL text; each one becomes a "?" placeholder and is
bound positionally:

	c := query.NewClient(store)
	rows, err := c.Query(`SELECT * FROM users WHERE email = ${}`, email).All(ctx)

The *Result returned by Client.SQL and Client.Query is lazy. It can be awaited
directly (Await, Async) or used through the named accessors All, First, Run
and Raw; each accessor sends the statement to the store at most once.

The store is looked up per call from the request context, see Resolve.
*/
package query
