package middleware

// Códigos ANSI usados por el logger HTTP y el banner
const (
	resetColor   = "\033[0m"
	boldColor    = "\033[1m"
	redColor     = "\033[31m"
	greenColor   = "\033[32m"
	yellowColor  = "\033[33m"
	blueColor    = "\033[34m"
	magentaColor = "\033[35m"
	cyanColor    = "\033[36m"
	whiteColor   = "\033[37m"
)
