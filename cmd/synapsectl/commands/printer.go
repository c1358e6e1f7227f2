package commands

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/internal/cliconfig"
)

var timeNow = time.Now

type renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

func (a *app) print(value renderable) error {
	switch a.cfg.Output {
	case cliconfig.OutputJSON:
		_, err := fmt.Fprintln(a.out, value.PrettyJson("  "))
		return err
	case cliconfig.OutputYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		_, err = a.out.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(a.out, value.PrettyTable())
		return err
	}
}

// printList prints the items of a list response, falling back to the whole record.
func (a *app) printList(result core.Record, itemsKey string) error {
	items := result.GetRecordSet(itemsKey)
	if items == nil {
		return a.print(result)
	}
	if a.cfg.Output != cliconfig.OutputTable {
		return a.print(items)
	}
	if err := a.print(items); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, footer(result, itemsKey))
	return err
}

func footer(result core.Record, itemsKey string) string {
	page, pageCount := result.GetString("page"), result.GetString("page_count")
	count := result.GetString(itemsKey + "_count")
	if count == "" {
		count = fmt.Sprint(len(result.GetRecordSet(itemsKey)))
	}
	if page == "" || pageCount == "" {
		return fmt.Sprintf("%s %s", count, itemsKey)
	}
	return fmt.Sprintf("page %s of %s, %s %s", page, pageCount, count, itemsKey)
}
