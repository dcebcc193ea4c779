//go:build !dev

package logging

import "github.com/sirupsen/logrus"

func devHook() logrus.Hook {
	return nil
}
