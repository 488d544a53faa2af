/* Decode caller ID from .WAV files */
package main

import (
	callerid "github.com/doismellburning/callerid/src"
)

func main() {
	callerid.CidTestMain()
}
