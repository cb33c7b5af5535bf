package main

import (
	"fmt"

	"github.com/samuelfneumann/goplan/examples"
)

func main() {
	fmt.Println("== Random shooting ==")
	examples.RandomShooting()

	fmt.Println("== Cross-entropy method ==")
	examples.CEM()
}
