// Package lesson runs the ownership walkthrough.
//
// Four lessons print narration lines while they exercise the rules enforced
// by internal/own:
//
//	SCOPE 1  copying a scalar: the copy stays independent of its source
//	SCOPE 2  moving a text buffer: the source binding becomes unusable
//	SCOPE 3  the same through function calls, and reclaiming a moved value by
//	         returning it and shadowing the name
//	SCOPE 4  shared and exclusive borrows
//
// The programs those lessons deliberately avoid, because the rules would
// reject them, live in counter.go and are turned into diagnostics by Explain.
package lesson
