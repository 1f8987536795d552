package main

import (
	"fmt"
	"log"

	"github.com/dreamph/sheetmap"
	"github.com/go-playground/validator/v10"
)

func main() {
	v := validator.New()

	spec := &sheetmap.ColumnSpec{
		Ordering: []string{"code", "name", "price", "active"},
		Validators: map[string]sheetmap.Validator{
			"code":   sheetmap.AsText(),
			"name":   sheetmap.AsText(),
			"price":  sheetmap.Chain(sheetmap.AsFloat(), sheetmap.Validated(v, "gt=0")),
			"active": sheetmap.Optional(sheetmap.AsBool()),
		},
		SkipCheckers: []sheetmap.SkipChecker{
			// Drop separator rows whose first cell starts with "#".
			func(row []sheetmap.CellValue) bool {
				return len(row) > 0 && row[0].Kind == sheetmap.KindText &&
					len(row[0].Text) > 0 && row[0].Text[0] == '#'
			},
		},
	}

	products, err := sheetmap.ReadFile(
		"products.xlsx",
		spec,
		sheetmap.Sheet("Products"),
	)
	if err != nil {
		// Failures carry a spreadsheet-style location, e.g. "Products:C7".
		log.Fatalf("read error at %s: %v", sheetmap.OriginOf(err), err)
	}

	fmt.Println("== RECORDS ==")
	for i, p := range products {
		fmt.Printf("%d: %+v\n", i+1, p)
	}

	// Write the records back out with a title row.
	err = sheetmap.WriteFile(
		"products-out.xlsx",
		products,
		spec,
		[]string{"Code", "Name", "Price", "Active"},
		sheetmap.Sheet("Products"),
	)
	if err != nil {
		log.Fatalf("write error: %v", err)
	}
}
