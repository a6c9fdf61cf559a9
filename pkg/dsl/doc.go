/*
Package dsl provides a fluent Go API for constructing questionnaires in code.

It is an alternative to YAML or JSON documents, useful for embedded
questionnaires and unit tests.

Example usage:

	b := dsl.New("Does your project need review?")

	b.Question("1", "Is the site public facing?").
		Option("yes", "public").Label("Yes").Go("2").
		Option("no", "internal").Label("No")

	b.Question("2", "Does it collect personal data?").
		Option("yes", "pii").Label("Yes").
		Option("no", "anon").Label("No")

	b.Pattern("public|pii|", "Full review required.", "High").
		Pattern("internal", "No review needed.", "None")

	loader, err := b.Loader()
	// ... pass loader to quiztree.New(...)
*/
package dsl
