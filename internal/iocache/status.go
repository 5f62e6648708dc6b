package iocache

import (
	"fmt"

	"github.com/leanlens/leanlens/schema"
)

// PrintStoreStatus prints report store status information.
func PrintStoreStatus(status *schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	if status.Backend == schema.NoneBackend {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
