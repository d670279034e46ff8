/*

Package dom provides a Document Model Implementation intended for use as
in-memory storage of live data objects.

The Node tree layout and APIs are designed to (roughly) follow those of the DOM
living standard found at https://dom.spec.whatwg.org.

*/
package dom
