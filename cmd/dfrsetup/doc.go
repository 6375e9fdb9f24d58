// Command dfrsetup builds and provisions the tiny-dfr Touch Bar daemon on
// the local machine.
package main
