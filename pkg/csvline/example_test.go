package csvline_test

import (
	"fmt"

	"github.com/beercompass/barfetch/pkg/csvline"
)

func ExampleParse() {
	fields := csvline.Parse(`"Gasthaus ""Laternchen""",51.0020672,6.8521633`)
	fmt.Printf("%d fields\n", len(fields))
	fmt.Println(fields[0])
	fmt.Println(fields[1], fields[2])
	// Output:
	// 3 fields
	// Gasthaus "Laternchen"
	// 51.0020672 6.8521633
}

func ExampleCount() {
	fmt.Println(csvline.Count(`"CentralBar, Shisha-Bar",50.5863134,8.6731598`))
	// Output: 3
}
