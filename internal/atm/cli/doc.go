// Package cli provides the interactive GophBank console.
//
// It wires configuration, storage and the core services, then runs two
// numbered menus. The init menu logs in or registers the operator; the
// main menu works on that operator's accounts until exit. Both menus end
// the run on an invalid selection.
//
// Main menu
//
//	1 create       open an account
//	2 update       replace account metadata
//	3 check        account details and monthly interest
//	4 list         accounts owned by the operator
//	5 transaction  deposit, withdraw or transfer
//	6 remove       close an account
//	7 owner        hand an account to another user
//	8 exit
//	  history      journal of an account
//	  export       write a snapshot of the bank
//	  help         show the menu
//
// Core errors are printed and the menu continues. Passwords are read without
// echo and wiped after use.
package cli
