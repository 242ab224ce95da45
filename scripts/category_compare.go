package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bcaldwell/txreport/pkg/ledger"
	"github.com/bcaldwell/txreport/pkg/transactions"
)

// Compares the ledger categories used by two transaction sources, e.g. a
// staging and a production copy of the same books.
func main() {
	suffix := flag.String("suffix", transactions.DefaultSuffix, "page suffix")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Println("category_compare [options] <base-url> <base-url> ...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	categories := make(map[string][]string)

	for _, baseURL := range flag.Args() {
		fetcher := transactions.NewHTTPFetcher(baseURL, *suffix, *timeout)

		trs, err := transactions.NewRetriever(fetcher).RetrieveAll(context.Background())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		categories[baseURL] = ledger.GroupBy(trs, transactions.FieldLedger).Keys()
	}

	for name, sourceCategories := range categories {
		PrettyPrint(name, sourceCategories)
	}

	for name, sourceCategories := range categories {
		for name2, sourceCategories2 := range categories {
			if name == name2 {
				continue
			}
			PrettyPrint(name+" - "+name2, difference(sourceCategories, sourceCategories2))
		}
	}
}

// difference returns the strings of slice1 missing from slice2.
func difference(slice1 []string, slice2 []string) []string {
	var diff []string

	for _, s1 := range slice1 {
		found := false
		for _, s2 := range slice2 {
			if s1 == s2 {
				found = true
				break
			}
		}

		if !found {
			diff = append(diff, s1)
		}
	}

	return diff
}

func PrettyPrint(prefix string, v interface{}) (err error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		fmt.Println(prefix + ": " + string(b))
	}
	return
}
