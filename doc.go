/*
Package formwork runs multi-page forms described by declarative definitions.

A definition (JSON or YAML) lists pages, the components on each page, named
conditions and the edges between pages. The engine compiles each definition
into an immutable model once, then serves any number of sessions from it:
every page submission is validated field by field, reshaped into stored
answers, merged into the session and followed by the first edge whose guard
holds.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/formwork"
		"github.com/aretw0/formwork/pkg/adapters/file"
	)

	func main() {
		ctx := context.Background()

		eng := formwork.New()
		if err := eng.LoadAll(ctx, file.NewLoader("./forms")); err != nil {
			log.Fatal(err)
		}

		start, _ := eng.StartPath("household") // "/household/applicant"
		log.Println("start at", start)

		res, err := eng.SubmitPage(ctx, "household", "/applicant", "session-1",
			map[string]any{"name": "Ada", "age": "36"}, "")
		if err != nil {
			log.Fatal(err)
		}
		if res.View != nil {
			log.Println("fix", res.View.Errors.Len(), "errors")
			return
		}
		log.Println("continue at", res.Redirect)
	}

Transport adapters live under pkg/adapters (HTTP, MCP) and drive the engine
through ports.FormEngine.
*/
package formwork
