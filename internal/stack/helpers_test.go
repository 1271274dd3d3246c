package stack

import "adaptive/internal/scan"

func newScanner(root string) *scan.Scanner {
	return scan.New(root)
}
