package main

import (
	"fmt"
	"os"

	"github.com/xiebiao/invoicing/internal/interface/cli"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		if apperrors.IsAppError(err) {
			appErr := apperrors.GetAppError(err)
			fmt.Fprintf(os.Stderr, "%s: %s\n", appErr.Reason(), appErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
