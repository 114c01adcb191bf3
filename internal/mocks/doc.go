// Package mocks provides shared test doubles for the service's boundaries:
// completion providers, collection stores, token verifiers and the checkout
// processor.
//
// Each mock has a function field per interface method, default return
// values used when the function is nil, and call tracking for assertions:
//
//	completer := &mocks.MockCompleter{
//	    CompleteFn: func(ctx context.Context, req generation.CompletionRequest) (string, error) {
//	        return `{"flashcards":[{"front":"Q","back":"A"}]}`, nil
//	    },
//	}
package mocks
