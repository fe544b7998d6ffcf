package main

import (
	"arewesmite2yet/cmd/arewesmite2yet/commands"
	"arewesmite2yet/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
