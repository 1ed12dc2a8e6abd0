// storectl dumps the lounge stores for operators: broadcast history
// records under "msg:" and reward claim instants under "claim:".
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"tokenlounge/repositories"
)

func main() {
	dbPath := flag.String("db", "/tmp/tokenlounge/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg: or claim:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithReadOnly(true).WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	switch {
	case strings.HasPrefix(*prefix, "msg"):
		err = dumpMessages(db)
	case strings.HasPrefix(*prefix, "claim"):
		err = dumpClaims(db)
	default:
		err = fmt.Errorf("unknown prefix %q, expected msg: or claim:", *prefix)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
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
	return table
}

func dumpMessages(db *badger.DB) error {
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Broadcast history"))
	table := newTable([]string{"Key", "Author", "Rank", "Text", "At", "Wallet", "Pinned"})

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte("msg:")
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var record repositories.StoredMessage
				if err := json.Unmarshal(v, &record); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				text := record.Text
				if len(text) > 48 {
					text = text[:48] + "..."
				}
				wallet := record.Wallet
				if len(wallet) > 8 {
					wallet = wallet[:8]
				}
				pinned := ""
				if record.Pinned {
					pinned = color.Yellow.Render("pinned")
				}

				table.Append([]string{
					string(item.Key()),
					record.Author,
					record.Rank,
					text,
					record.At.Format("15:04:05"),
					wallet,
					pinned,
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
		return err
	}

	table.Render()
	return nil
}

func dumpClaims(db *badger.DB) error {
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Reward claims"))
	table := newTable([]string{"Key", "Last Claim", "Age"})

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte("claim:")
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				at, err := time.Parse(time.RFC3339Nano, string(v))
				if err != nil {
					fmt.Printf("Error parsing key %s: %v\n", string(item.Key()), err)
					return nil
				}
				table.Append([]string{
					string(item.Key()),
					at.Format(time.RFC3339),
					time.Since(at).Truncate(time.Second).String(),
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
		return err
	}

	table.Render()
	return nil
}
