package console

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	textmessage "golang.org/x/text/message"

	"github.com/mmeshcher/convenience-store/internal/model"
)

type view struct {
	out     io.Writer
	printer *textmessage.Printer
}

func newView(out io.Writer) *view {
	return &view{out: out, printer: textmessage.NewPrinter(language.English)}
}

func (v *view) println(a ...any) {
	v.printer.Fprintln(v.out, a...)
}

func (v *view) printf(format string, a ...any) {
	v.printer.Fprintf(v.out, format, a...)
}

func (v *view) welcome(products []model.Product, hasNormalLot func(name string) bool) {
	v.println("Hello. Welcome to W convenience store.")
	v.println("Here are the products we currently have.")
	v.println()

	for _, p := range products {
		v.product(p)
		if p.HasPromotion() && !hasNormalLot(p.Name) {
			v.product(model.Product{Name: p.Name, Price: p.Price})
		}
	}
	v.println()
}

func (v *view) product(p model.Product) {
	stock := v.printer.Sprintf("%d units", p.Stock)
	if p.Stock == 0 {
		stock = "Out of stock"
	}
	if p.HasPromotion() {
		v.printf("- %s %d won %s %s\n", p.Name, p.Price, stock, p.Promotion)
		return
	}
	v.printf("- %s %d won %s\n", p.Name, p.Price, stock)
}

func (v *view) errorMessage(msg string) {
	v.printf("[ERROR] %s\n", msg)
}

func (v *view) receipt(r model.Receipt) {
	v.println()
	v.println("============== W CONVENIENCE STORE ==============")

	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	v.printer.Fprintf(tw, "Product\tQty\tAmount\n")
	for _, item := range r.Items {
		v.printer.Fprintf(tw, "%s\t%d\t%d\n", item.Name, item.Quantity, item.Amount)
	}
	tw.Flush()

	if len(r.Gifts) > 0 {
		v.println("===================== GIFTS =====================")
		tw = tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
		for _, g := range r.Gifts {
			v.printer.Fprintf(tw, "%s\t%d\n", g.Name, g.Quantity)
		}
		tw.Flush()
	}

	v.println("=================================================")
	tw = tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	v.printer.Fprintf(tw, "Total\t%d\t%d\n", r.TotalQuantity, r.TotalPrice)
	v.printer.Fprintf(tw, "Promotion discount\t\t-%d\n", r.PromotionDiscount)
	v.printer.Fprintf(tw, "Membership discount\t\t-%d\n", r.MembershipDiscount)
	v.printer.Fprintf(tw, "Payable\t\t %d\n", r.Payable)
	tw.Flush()
	v.println()
}
