package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"pairchat/codec"
	"pairchat/infrastructure/storage"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Accounts hold password hashes, documents only by default
	prefix := flag.String("prefix", storage.DocumentPrefix, "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Collection", "ID", "Updated", "Fields"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			collection, id, ok := storage.ParseDocumentKey(item.Key())
			if !ok {
				table.Append([]string{"-", string(item.Key()), "", fmt.Sprintf("%d bytes", item.ValueSize())})
				continue
			}

			err := item.Value(func(v []byte) error {
				var s structpb.Struct
				if err := proto.Unmarshal(v, &s); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}
				table.Append([]string{
					collection,
					id,
					updatedAt(codec.FromStruct(&s)),
					formatFields(codec.FromStruct(&s)),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func updatedAt(data map[string]any) string {
	for _, field := range []string{"updatedAt", "timestamp", "createdAt"} {
		if at, ok := codec.AsTime(data, field); ok {
			return at.Format(time.DateTime)
		}
	}
	return ""
}

func formatFields(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
