// Package ovf extracts the property bag from an OVF environment document.
//
// VMware hands OVF properties to a guest through an XML document, either on a
// mounted CD-ROM or through guestinfo. Only a small subset of the schema is
// read:
//
//	<Environment>
//	  <PropertySection>
//	    <Property key="user-data" value="c2V0dGluZ3MubW90ZCA9ICJoZWxsbyI="/>
//	  </PropertySection>
//	</Environment>
//
// Element and attribute names are matched on their local name only, so
// prefixed forms such as oe:key or ovfenv:PropertySection are accepted. Every
// other element and attribute is ignored.
package ovf
