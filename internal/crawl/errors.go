package crawl

import (
	"fmt"
	"net/url"

	"github.com/findablescore/auditor/internal/auditerrors"
)

func robotsDeniedError(u *url.URL) error {
	return auditerrors.New(auditerrors.ErrCodeRobotsDenied,
		fmt.Sprintf("robots.txt disallows %s", u.String()), nil)
}
