package main

import "github.com/xbg/ifood-admin/cmd/app"

func main() {
	app.Run()
}
