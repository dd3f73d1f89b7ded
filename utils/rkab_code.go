package utils

import "fmt"

// GenRkabCode: RKAS-<tahun>-<seq 4 digit>. Seq dihitung dari jumlah RKAS
// tahun itu, jadi monoton per tahun tapi tidak aman untuk pembuatan paralel.
func GenRkabCode(fiscalYear int, seq int64) string {
	return fmt.Sprintf("RKAS-%d-%04d", fiscalYear, seq)
}
