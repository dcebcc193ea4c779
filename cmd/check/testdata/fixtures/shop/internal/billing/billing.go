package billing

import "fmt"

func Charge(total int) error {
	if total < 0 {
		return fmt.Errorf("negative total %d", total)
	}
	return nil
}
